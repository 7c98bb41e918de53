/*
Package eval interprets prediction programs.

Evaluate walks a tree against an Environment holding one input row and the
local slots. Evaluation is synchronous and deterministic; the only loop is
for_local, whose trip count is fixed at construction. Broken invariants such
as an out-of-range param or a read of an unset local panic with
*domain.InvariantError: a well-formed tree never reaches them.

Predict is the raw entry point for trusted callers. PredictChecked and
PredictBatch validate rows first and report violations as errors.
*/
package eval
