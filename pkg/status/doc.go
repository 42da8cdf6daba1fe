/*
Package status presents analysis results and tracks the inputs being analyzed.

	            +-------------+
	            |   Tracker   |
	            |  (sources)  |
	            +------+------+
	                   |
	      +-----------+-----------+
	      |                       |
	+-----+-----+           +----+------+
	| Formatter |           |  Change   |
	| text/json |           |  rows     |
	+-----------+           +-----------+

🎯 Purpose:
- Render reports as terminal text (emoji, aligned colored rows) or JSON
- Track per-source status (pending, analyzed, failed)
- Report progress across a batch of inputs

🔄 Flow:
1. The operation package analyzes a source and builds a Report
2. The Tracker records the source outcome and progress
3. A Formatter renders all reports once the batch is done

🤝 Interfaces:
- Formatter: FormatChange, FormatProgress, FormatError, Render

🔍 Example:

	f, err := status.NewFormatter("text", status.Options{ShowChanges: true})
	if err != nil {
		return err
	}

	tracker := status.New(zerolog.Ctx(ctx), f)
	tracker.StartOperation(ctx, len(sources))

	err = f.Render(os.Stdout, reports)
*/
package status
