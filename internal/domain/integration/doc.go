// Package integration contains the Integration bounded context.
// This context manages the connection to the external accounting system.
//
// Key concepts:
//   - AccountingGateway: Port interface for posting sales and payouts to the
//     accounting system (QuickBooks)
//   - TokenSource: Port supplying the gateway's bearer token; OAuth refresh
//     happens outside this context
//   - SalesReceipt, PayoutPayment, Customer: Value objects carried over the port
//
// Design Pattern: Ports & Adapters
//   - Ports (interfaces) are defined here in the domain layer
//   - Adapters (implementations) are in the infrastructure layer
package integration
