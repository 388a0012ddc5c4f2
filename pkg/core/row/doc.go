// Package row models a twelve-tone row and its serial transformations.
//
// A [Row] is an immutable permutation of the twelve pitch classes. Rows are
// built with [Complete] (or [New], [Parse]), which appends any pitch classes
// missing from the input in ascending order, so a partial row such as the
// first eight notes of Webern's String Quartet Op. 28 still yields a usable
// twelve-note row.
//
// # Transformations
//
// Every transformation returns a new Row and never fails:
//
//   - [Row.Prime]: the row itself
//   - [Row.Inversion]: each pitch class replaced by its complement mod 12
//   - [Row.Retrograde]: the row reversed
//   - [Row.RetrogradeInversion]: the retrograde, inverted
//   - [Row.Transpose]: every pitch class shifted by an interval mod 12
//   - [Row.Zero]: the transposition that starts on pitch class 0
//
// The usual identities hold for every row r:
//
//	r.Inversion().Inversion() == r
//	r.Retrograde().Retrograde() == r
//	r.Zero().Zero() == r.Zero()
//	r.Transpose(a).Transpose(b) == r.Transpose(a + b)
//
// # Concurrency
//
// Row is a plain array-backed value with no hidden state; copies are
// independent and all functions are safe for concurrent use.
package row
