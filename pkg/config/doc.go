/*
Package config manages configuration parsing and validation for rsyncverify.

	            +-------------+
	            |   Config    |
	            | (Settings)  |
	            +------+------+
	                   |
	      +-----------+-----------+-----------+
	      |           |           |           |
	+-----+-----+ +---+---+ +-----+-----+ +---+----------+
	|   YAML    | |  HCL  | |   JSON    | | .rsyncverify |
	| Parser    | | Parser| |  Parser   | | (YAML|HCL)   |
	+-----------+ +-------+ +-----------+ +--------------+

🎯 Purpose:
- Load CLI settings from a file chosen by extension
- Fill defaults (text output, auto color, concurrency 4, cache on)
- Validate formats, change type names and glob patterns

🔄 Flow:
1. Reads configuration from file
2. Parses format-specific syntax (unknown fields are rejected)
3. Validates and fills defaults
4. CLI flags override the loaded values

🔍 Example:

	cfg, err := config.LoadOrDefault(ctx, ".rsyncverify")
	if err != nil {
		return err
	}

	filter, err := cfg.AnalyzerFilter()

HCL files may refer to change types through the change_types object:

	filter {
	  types = [change_types.deletion, "file"]
	}
*/
package config
