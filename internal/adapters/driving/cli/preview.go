package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/j-drayer/discovery-cli/internal/core/domain"
)

var (
	previewOutput string
	previewRows   int
)

var previewCmd = &cobra.Command{
	Use:   "preview [dataset-id]",
	Short: "Show sample rows of a dataset",
	Long:  `Fetches a preview of a dataset and prints its first rows and download link.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runPreview,
}

func init() {
	previewCmd.Flags().StringVarP(&previewOutput, "output", "o", formatTable, "output format: table, json or yaml")
	previewCmd.Flags().IntVar(&previewRows, "rows", 20, "maximum rows to print in table output")
	rootCmd.AddCommand(previewCmd)
}

// previewResult is the structured form of a preview.
type previewResult struct {
	DatasetID string           `json:"datasetId" yaml:"datasetId"`
	Columns   []string         `json:"columns" yaml:"columns"`
	Rows      []map[string]any `json:"rows" yaml:"rows"`
	Download  string           `json:"download" yaml:"download"`
}

func runPreview(cmd *cobra.Command, args []string) error {
	if datasetService == nil {
		return errors.New("dataset service not configured")
	}
	if err := validateFormat(previewOutput); err != nil {
		return err
	}

	id := args[0]
	preview, err := datasetService.RetrievePreview(cmd.Context(), id)
	if err != nil {
		if domain.IsNotFound(err) {
			return fmt.Errorf("dataset %s not found", id)
		}
		return fmt.Errorf("preview failed: %w", err)
	}
	download := datasetService.DownloadURL(id)

	if previewOutput != formatTable {
		return writeStructured(cmd.OutOrStdout(), previewOutput, previewResult{
			DatasetID: id,
			Columns:   preview.Columns,
			Rows:      preview.Rows,
			Download:  download,
		})
	}

	if preview.Len() == 0 {
		cmd.Println("No preview rows available.")
	} else {
		n := preview.Len()
		if previewRows > 0 && n > previewRows {
			n = previewRows
		}
		cells := make([][]string, n)
		for i := range cells {
			cells[i] = make([]string, len(preview.Columns))
			for j, col := range preview.Columns {
				cells[i][j] = truncate(formatCell(preview.Cell(i, col)), 32)
			}
		}
		cmd.Println(renderTable(preview.Columns, cells))
		if n < preview.Len() {
			cmd.Printf("%d of %d rows shown\n", n, preview.Len())
		}
	}
	cmd.Printf("Download: %s\n", download)
	return nil
}
