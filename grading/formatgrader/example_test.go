/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package formatgrader_test

import (
	"fmt"

	"chainguard.dev/gradekit/grading/formatgrader"
)

func ExampleDetect() {
	fmt.Println(formatgrader.Detect("Return the user as JSON", `{"name": "Ada"}`))
	fmt.Println(formatgrader.Detect("", "# Notes\n\n- one"))
	fmt.Println(formatgrader.Detect("", "just words"))
	// Output:
	// json
	// markdown
	// text
}

func ExampleGrader_Grade() {
	crit, err := formatgrader.NewCriteria(
		formatgrader.WithRequiredFormat(formatgrader.JSON),
		formatgrader.WithRequiredFields("name", "email"),
	)
	if err != nil {
		panic(err)
	}
	g, err := formatgrader.New(crit)
	if err != nil {
		panic(err)
	}

	res := g.Grade(`{"name": "Ada"}`, "")
	fmt.Printf("%.1f %v\n", res.Score, res.Passed)
	fmt.Println(res.Feedback)
	// Output:
	// 8.0 true
	// 1 error(s): Missing required field: "email"
}
