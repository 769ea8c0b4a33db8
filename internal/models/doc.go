// Package models defines the core domain models for settleup.
//
// # Models
//
//   - Member: a participant, identified by display name
//   - Expense: one recorded cost with a payer, participants and a split method
//   - Transaction: a directed payment instruction produced by settlement
//   - SettledBill: an immutable snapshot of expenses archived by a settlement
//
// # Design Principles
//
// 1. **Names as identity**: members are compared by value, there are no user accounts
// 2. **Lossless records**: every model round-trips through JSON, the storage format
// 3. **Snapshots are values**: Clone methods deep-copy so archived bills never alias
// the active working set
// 4. **Validation at the edges**: ValidateExpense guards input, the calculator assumes it held
package models
