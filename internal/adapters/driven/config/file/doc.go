// Package file stores the discovery settings in a TOML file,
// ~/.discovery/config.toml unless another directory is given.
package file
