/*
Package operation runs analysis over captured rsync output sources.

	+-------------+
	|   Source    |
	| (file/stdin)|
	+------+------+
	       |
	+------+------+
	|  Operation  |
	|  (Analyze)  |
	+------+------+
	       |
	+------+------+
	|   Runner    |
	| (sync/async)|
	+------+------+
	       |
	+------+------+
	|   Reports   |
	+-------------+

🎯 Purpose:
- Reads each source into line records
- Analyzes the records, through the shared cache when one is configured
- Narrows the itemized changes with a Filter
- Tracks per-source status for the status package

🔄 Flow:
1. SourcesFromArgs maps CLI arguments to sources ("-" is stdin)
2. AnalyzeSources builds one AnalyzeOperation per source
3. The runner executes them, bounded by the configured concurrency
4. Reports come back in source order, ready for a status.Formatter

⚠️ Failure policy:
A source that cannot be read fails the run. A source that can be read but
not analyzed is recorded on its report, and only fails the run in strict
mode. Check applies the strict and fail-on-errors policies to finished
reports.

🔍 Example:

	runner := operation.NewRunner(logger, true, 4)
	reports, err := operation.AnalyzeSources(ctx, runner, sources, operation.Options{
		Analyzer: analyzer.New(),
		Strict:   true,
	})
*/
package operation
