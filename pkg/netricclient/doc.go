// Package netricclient provides the entry point for constructing a client for
// a netric server that implements the netric.Client interface.
//
// It normalizes the server address, validates configuration and wires the
// HTTP transport and session authentication together. Most applications build
// a client here and then work with entities through the returned
// netric.Client.
//
// Quick start
//
//	import (
//	  "context"
//	  "log"
//
//	  "github.com/netric/netric-sdk-go/pkg/netric"
//	  "github.com/netric/netric-sdk-go/pkg/netricclient"
//	)
//
//	func example() {
//	  ctx := context.Background()
//
//	  cli, err := netricclient.New(ctx, &netric.Config{
//	    Server:         "acme.netric.com", // https:// is added
//	    ApplicationID:  "app-id",
//	    ApplicationKey: "app-key",
//	  })
//	  if err != nil { log.Fatal(err) }
//
//	  customer, err := cli.GetEntity(ctx, "customer", "42")
//	  if err != nil { log.Fatal(err) }
//	  if customer == nil { log.Print("not found") }
//	}
//
// The first request exchanges the application id and key for a session token;
// every later request reuses it.
//
// # TLS and development mode
//
// Config.SkipTLSVerify is gated by the environment variable NETRIC_DEV_MODE to
// avoid accidental insecure usage in production environments.
//
// # Helpers
//
// NewWithCredentials builds a client from a server and key pair with default
// settings. NewWithToken reuses a session token obtained elsewhere and never
// authenticates.
package netricclient
