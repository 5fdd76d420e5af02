// Package models defines the core domain values for splitledger.
//
// # Models
//
//   - User: a member identity. Users are compared by name, so two User
//     values with the same name are the same person in every group.
//   - Share: one user's portion of an expense.
//   - Transfer: a payment from a debtor to a creditor produced by settlement.
//   - Entry: one immutable record in a group's audit log.
//   - GroupSummary: a read-only view of a group used by listings.
//
// # Design Principles
//
// 1. **Value identity**: models are small comparable values, never pointers
// 2. **Integer amounts**: every amount is an int64 in the smallest unit
// 3. **No behaviour**: the ledger and calculator packages own the rules
package models
