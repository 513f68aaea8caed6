/*
Package status manages file storage and status tracking for protobridge.

	            +-------------+
	            |   Status    |
	            |  (Storage)  |
	            +------+------+
	                   |
	      +-----------+-----------+
	      |                       |
	+-----+-----+           +----+----+
	|   Files   |           | Tracked |
	| (Storage) |           | Status  |
	+-----------+           +---------+

🎯 Purpose:
- Reads bridge and module files
- Rejects missing inputs before anything is edited
- Replaces the bridge file atomically (temp file + rename)
- Tracks what happened to each file for the final summary

⚡ Key Responsibilities:
- File system operations
- Status tracking
- Content checksums (BLAKE3)

🤝 Interfaces:
- FileManager: Handles file operations
- StatusReporter: Reports status changes
- FileFormatter: Formats status messages
*/
package status
