// Package stockassist models guided stock-transaction entry on a
// double-entry book.
//
// The heart of the package is the StockAssistantModel: bound to one stock
// account, it exposes the transaction types the current position allows,
// validates the entered amounts against the chosen type, derives realized
// capital gains for disposals, and finally posts a balanced set of splits.
//
// The companion priceimport package parses commodity prices out of delimited
// files into the book's price database.
package stockassist
