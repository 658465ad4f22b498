// Package netric provides types, interfaces, and helpers for working with the
// entity API of a netric server.
//
// # Overview
//
// The netric package defines the entity model (Entity, EntityGrouping,
// EntityCollection, Where) and the Client interface. A concrete implementation
// is provided by the netricclient package, which wires configuration,
// transport and authentication. Most consumers import netricclient to build a
// client and then use the types here.
//
// Getting a client
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
//	  cli, err := netricclient.NewWithCredentials(ctx, "https://acme.netric.com", "app-id", "app-key")
//	  if err != nil { log.Fatal(err) }
//
//	  task := netric.NewEntity("task", "")
//	  task.Set("name", "Call back")
//	  if err := cli.SaveEntity(ctx, task); err != nil { log.Fatal(err) }
//	  log.Print(task.ID()) // assigned by the server
//	}
//
// # Fields and values
//
// Entities keep an open set of fields in wire order. Values are the raw JSON
// shapes (string, json.Number, bool, []any, *Fields or nil); Entity.Get wraps
// them in a Value with typed accessors. Reference fields come back with their
// display value: when the server sends both owner_id and owner_id_fval, the
// entity's owner_id holds the _fval value.
//
//	var task struct {
//	  Name  string `mapstructure:"name"`
//	  Owner string `mapstructure:"owner_id"`
//	}
//	if err := entity.Decode(&task); err != nil { ... }
//
// # Queries and pagination
//
// EntityCollection describes a query. LoadCollection replaces the collection's
// entities with one page; ForEachEntity walks every page:
//
//	tasks := netric.NewEntityCollection("task").
//	  Where("done", netric.OperatorEquals, false).
//	  AddOrderBy("ts_entered", netric.SortDesc).
//	  SetLimit(50)
//	err := cli.ForEachEntity(ctx, tasks, func(e *netric.Entity) error {
//	  log.Print(e.Get("name").String())
//	  return nil
//	})
//
// # Errors
//
// Failures are typed. Use the helpers to branch on them:
//
//	entity, err := cli.GetEntity(ctx, "task", id)
//	switch {
//	case netric.IsAuthentication(err):
//	case netric.IsRetrieval(err):
//	case netric.IsTimeout(err):
//	case err == nil && entity == nil:
//	  // not found
//	}
package netric
