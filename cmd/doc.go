// Package cmd contains the command-line tools for cropsuit and the flags they share. Each tool reads an optional
// .properties configuration file; flags given on the command line take precedence over it.
package cmd
