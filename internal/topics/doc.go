// Package topics loads article requests from CSV and XLSX input files.
//
// Input files carry one topic per row under a header row; columns may appear
// in any order. Rows that fail validation are skipped and reported so a bad
// row never blocks the rest of a batch.
package topics
