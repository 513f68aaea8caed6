/*
Package config manages configuration parsing and validation for protobridge.

	            +-------------+
	            |   Config    |
	            | (Settings)  |
	            +------+------+
	                   |
	      +------------+------------+
	      |            |            |
	+-----+----+ +-----+----+ +-----+----+
	|   YAML   | |   JSON   | |   HCL    |
	|  Parser  | |  Parser  | |  Parser  |
	+----------+ +----------+ +----------+

🎯 Purpose:
- Chooses the oneof that bridge messages extend
- Chooses how the module import path is written
- Decides which failures are fatal

🔄 Flow:
1. Reads configuration from file (optional, defaults otherwise)
2. Parses format-specific syntax
3. Fills defaults and validates
4. CLI flags override the loaded values

🔍 Example (.protobridge.yaml):

	union: subsystem
	import_style: basename
	import_prefix: proto/
	allow_unmatched: false
	allow_duplicate_imports: false
	verify_module: true

The same file in HCL can read the environment:

	union         = "subsystem"
	import_prefix = "${env.PROTO_ROOT}/"
*/
package config
