// Licensed to the Apache Software Foundation (ASF) under one
// or more contributor license agreements.  See the NOTICE file
// distributed with this work for additional information
// regarding copyright ownership.  The ASF licenses this file
// to you under the Apache License, Version 2.0 (the
// "License"); you may not use this file except in compliance
// with the License.  You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Command memstress runs a concurrent allocate/retain/release workload
// against the memrt runtime and reports its statistics.
package main

import (
	"fmt"
	"os"

	"github.com/docopt/docopt-go"
	"github.com/goccy/go-json"
	"github.com/pterm/pterm"
	"golang.org/x/sync/errgroup"

	"github.com/memrt/memrt-go/memrt"
)

const usage = `memstress exercises the memrt allocation runtime.

Usage:
  memstress [--workers=<n>] [--records=<n>] [--size=<bytes>] [--safe] [--json]
  memstress -h | --help

Options:
  --workers=<n>   concurrent workers [default: 4]
  --records=<n>   records allocated per worker [default: 10000]
  --size=<bytes>  payload size in bytes [default: 256]
  --safe          use the poisoning allocation variant
  --json          emit statistics as JSON
  -h --help       show this screen`

func main() {
	opts, err := docopt.ParseDoc(usage)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	workers, _ := opts.Int("--workers")
	records, _ := opts.Int("--records")
	size, _ := opts.Int("--size")
	safe, _ := opts.Bool("--safe")
	asJSON, _ := opts.Bool("--json")

	rt := memrt.NewRuntime()
	var g errgroup.Group
	for range workers {
		g.Go(func() error {
			for range records {
				var mi *memrt.MemInfo
				if safe {
					mi = rt.AllocSafe(size)
				} else {
					mi = rt.Alloc(size)
				}
				if mi == nil {
					return fmt.Errorf("allocation of %d bytes failed", size)
				}
				mi.Retain()
				mi.Release()
				mi.Release()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	stats := rt.Stats()
	if asJSON {
		out, err := json.Marshal(stats)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		fmt.Println(string(out))
		return
	}
	_ = pterm.DefaultTable.WithHasHeader().WithData(pterm.TableData{
		{"counter", "value"},
		{"backing allocs", fmt.Sprint(stats.Alloc)},
		{"backing frees", fmt.Sprint(stats.Free)},
		{"records created", fmt.Sprint(stats.MiAlloc)},
		{"records destroyed", fmt.Sprint(stats.MiFree)},
	}).Render()
}
