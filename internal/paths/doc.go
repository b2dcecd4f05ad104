// Package paths centralizes filesystem locations and permission modes.
package paths
