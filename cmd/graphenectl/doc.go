// Command graphenectl manages a Graphene consensus node deployment.
//
// It bootstraps the node's cryptographic identity and drives the
// validator and sentry service groups through their lifecycle across
// local, test, and live environments.
//
// # Installation
//
//	go install github.com/graphene-chain/graphene-control-plane/cmd/graphenectl@latest
//
// # Quick Start
//
//	graphenectl init --env local --node-type validator
//	graphenectl deploy --env local
//	graphenectl validate --env test
//
// # Layout
//
// Deployment configuration lives under the deploy directory, one
// subdirectory per environment, each holding a compose file per
// service group plus layered env files (common, role-specific, and an
// optional local override).
package main
