// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

/*
Package operation registers module proto files into a bridge proto file.

	+-------------+      +-------------+      +-------------+
	|   modules   | ---> |    Plan     | ---> |    Apply    |
	| (extract)   |      | (in memory) |      | (atomic)    |
	+-------------+      +------+------+      +-------------+
	                            |
	                     +------+------+
	                     |    Diff     |
	                     +-------------+

🎯 Purpose:
- Expand module globs and check that every input exists
- Read and extract module annotations concurrently
- Inject the module import and append the module field to the bridge
- Write the bridge once, only when every edit succeeded

🔄 Flow:
1. Plan reads the bridge and every module, then edits the bridge in memory.
   Modules are applied in argument order.
2. Target failures abort the plan unless Config.AllowUnmatched is set, in
   which case they are kept as warnings.
3. Apply writes the updated bridge through status.FileManager and records
   the outcome with status.StatusReporter. A dry run only records it.

🔍 Example:

	op, err := operation.New(operation.Options{
		Config: cfg,
		Files:  mgr,
		Status: mgr,
	})
	plan, err := op.Plan(ctx, "bridge.proto", []string{"modules/*.proto"})
	err = op.Apply(ctx, plan, false)
*/
package operation
