// Package models defines the domain models for the bill splitter.
//
// # Input Models
//
// An Outing is the unit of settlement. It is built once per request from the
// caller's JSON and discarded after the response is produced:
//   - Outing: one or more bills settled together (a trip, a dinner, an event)
//   - Bill: one paid invoice with its payer, line items and charges
//   - Item: a line on a bill and the people who consumed it
//
// Participants are identified by case-insensitive names. Validation
// canonicalizes every name to lowercase before the calculator runs.
//
// # Output Models
//
//   - PersonBalance / OutingPaymentBalance: net position of each participant
//   - Payment / PaymentPlan / OutingSplit: the transactions that settle an outing
//
// # OCR Models
//
// OCRBill is the partial bill an OCR provider extracts from a receipt photo.
// It carries no payer or consumers; the caller fills those in before building
// a Bill.
package models
