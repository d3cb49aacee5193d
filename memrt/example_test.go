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

package memrt_test

import (
	"fmt"

	"github.com/memrt/memrt-go/memrt"
)

func ExampleRuntime() {
	rt := memrt.NewRuntime()

	mi := rt.Alloc(64)
	fmt.Println("refcount after alloc:", mi.Refcount())

	mi.Retain()
	fmt.Println("refcount after retain:", mi.Refcount())

	mi.Release()
	mi.Release()

	stats := rt.Stats()
	fmt.Printf("allocs=%d frees=%d records=%d destroyed=%d\n",
		stats.Alloc, stats.Free, stats.MiAlloc, stats.MiFree)

	// Output:
	// refcount after alloc: 1
	// refcount after retain: 2
	// allocs=1 frees=1 records=1 destroyed=1
}

func ExampleRuntime_ManageMemory() {
	rt := memrt.NewRuntime()

	foreign := []byte("device-resident bytes")
	mi := rt.ManageMemory(foreign, func(b []byte) {
		fmt.Println("released", len(b), "bytes")
	})

	fmt.Println(string(mi.Data()))
	mi.Release()

	// Output:
	// device-resident bytes
	// released 21 bytes
}

func ExampleRuntime_NewVarsize() {
	rt := memrt.NewRuntime()

	mi := rt.NewVarsize(4)
	copy(mi.VarsizeRealloc(11), "hello")
	copy(mi.Data()[5:], " world")
	fmt.Println(string(mi.Data()), mi.Size())

	mi.VarsizeFree(mi.Data())
	fmt.Println("payload freed:", mi.Data() == nil)
	mi.Release()

	// Output:
	// hello world 11
	// payload freed: true
}
