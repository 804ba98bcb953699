// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package app

import (
	"context"
	"fmt"
	"os"
)

func Example() {
	greeting := BuilderOf("hello")
	buildRuntime := Map(greeting, func(s string) (Runtime, error) {
		rt := RuntimeFunc(func(ctx context.Context) error {
			fmt.Println(s, "from runtime")
			return nil
		})
		return rt, nil
	})

	err := NotifyOnSignal(
		RecoverPanics(
			DefaultRunner[Runtime](),
		),
		os.Interrupt,
	).Run(context.Background(), buildRuntime)
	if err != nil {
		fmt.Println(err)
		return
	}

	// Output:
	// hello from runtime
}
