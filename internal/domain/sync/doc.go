// Package sync contains the order synchronization bounded context.
// This context reconciles orders pulled from the Tienda Nube store API
// into the local database and forwards them to the billing system.
//
// Key concepts:
//   - StorePlatform: Port interface for the remote store API (production client and sandbox)
//   - BillingGateway: Port interface for the external billing system
//   - Order: Entity mirroring a remote order with its billing sync state
//   - SyncRun: Durable record of one full/single/manual sync execution
//
// Design Pattern: Ports & Adapters
//   - Ports (interfaces) are defined here in the domain layer
//   - Adapters (Tienda Nube client, sandbox, billing forwarder, gorm
//     repositories) are in the infrastructure layer
package sync
