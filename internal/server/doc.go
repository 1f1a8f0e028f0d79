// Package server runs the task keeper REST API and the optional gRPC health
// endpoint side by side and stops both on SIGTERM, SIGINT or SIGQUIT.
package server
