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

package bridge_test

import (
	"fmt"

	"github.com/walteh/protobridge/pkg/bridge"
)

func ExampleAppendField() {
	doc := `message Request {
    oneof subsystem {
        zmk.core.Request core = 1;
    }
}
`
	result, err := bridge.AppendField(doc, "subsystem", "zmk.underglow", "underglow", []string{"Request", "Response"})
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	fmt.Print(result.Document)
	for _, t := range result.Targets {
		fmt.Printf("%s: %s\n", t.Declaration, t.Status)
	}

	// Output:
	// message Request {
	//     oneof subsystem {
	//         zmk.core.Request core = 1;
	//         zmk.underglow.Request underglow = 2;
	//     }
	// }
	// Request: appended
	// Response: not found
}

func ExampleInjectImport() {
	doc := "syntax = \"proto3\";\n\npackage zmk.bridge;\n\nimport \"core.proto\";\n"

	result, err := bridge.InjectImport(doc, "underglow.proto", bridge.ImportOptions{})
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	fmt.Print(result.Document)
	fmt.Println(result.Status)

	// Output:
	// syntax = "proto3";
	//
	// package zmk.bridge;
	//
	// import "core.proto";
	// import "underglow.proto";
	// inserted
}
