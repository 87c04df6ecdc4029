// Package config provides configuration loading, merging, and validation
// facilities for the application.
//
// Configuration is assembled from multiple sources in the following priority
// order (the first source providing a non-zero field wins):
//  1. Environment variables
//  2. Command-line flags
//  3. JSON config file
//
// The main entry points are [GetClientConfig] for the terminal client and
// [GetServerConfig] for the development server. Both apply defaults on top
// of [GetStructuredConfig] and validate the result.
package config
