/*
Package analyzer turns raw rsync console output into structured data.

	            +-----------------+
	            |  rsync output   |
	            |  (text/records) |
	            +--------+--------+
	                     |
	              +------+------+
	              | classifier  |
	              +--+---+---+--+
	                 |   |   |
	   +-------------+   |   +---------------+
	   |                 |                   |
	+--+-------+  +------+------+  +---------+--------+
	| itemized |  | statistics  |  | errors/warnings  |
	| decoder  |  | extractor   |  | harvester        |
	+--+-------+  +------+------+  +---------+--------+
	   |                 |                   |
	   +--------+--------+-------------------+
	            |
	     +------+-------+
	     | AnalysisResult| <--- Analyzer cache (xxhash of the text)
	     +--------------+

🎯 Purpose:
- Decode itemized change lines (".f..t....... file.txt", "*deleting old.txt",
  ".L..t....... link -> target") into typed changes
- Extract the trailing statistics block with locale-style thousands
  separators ("16,087") normalized away
- Detect dry runs and collect error and warning lines
- Memoize results for repeated output

🔄 Flow:
1. Every line is routed once. Lines before the first "Number of files:" line
   are offered to the itemized decoder and scanned for "error"/"warning".
2. From the first "Number of files:" line on, every line belongs to the
   statistics block.
3. The block is reduced to one Statistics value; a missing block makes the
   whole output unparsable.

⚡ Failure model:
- Lines that do not decode are skipped, never reported
- Malformed numbers degrade to zero
- Only empty input (ErrEmptyInput) and a missing statistics block
  (ErrMissingStatistics, wrapped in *ParseError) are failures

🔍 Example:

	result := analyzer.Analyze(output)
	if result == nil {
		// empty or not rsync output
	}

	a := analyzer.New()
	result, err := a.AnalyzeCachedStrict(ctx, output)

	fmt.Println(analyzer.Summary(result))
*/
package analyzer
