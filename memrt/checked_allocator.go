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

package memrt

import (
	"runtime"
	"sync"
	"sync/atomic"
)

// CheckedAllocator wraps an Allocator and records every live
// allocation together with its call site, so tests can assert that a
// workload freed everything it allocated and pinpoint the leaks it
// did not.
type CheckedAllocator struct {
	mem Allocator
	sz  atomic.Int64

	allocs sync.Map // payload address -> *allocSite
}

type allocSite struct {
	size int
	pc   uintptr
}

func NewCheckedAllocator(mem Allocator) *CheckedAllocator {
	return &CheckedAllocator{mem: mem}
}

// CurrentAlloc returns the number of bytes currently allocated and not
// yet freed.
func (a *CheckedAllocator) CurrentAlloc() int { return int(a.sz.Load()) }

func (a *CheckedAllocator) Allocate(size int) []byte {
	b := a.mem.Allocate(size)
	if b == nil {
		return nil
	}
	a.sz.Add(int64(size))
	if size != 0 {
		pc, _, _, _ := runtime.Caller(1)
		a.allocs.Store(addressOf(b), &allocSite{size: size, pc: pc})
	}
	return b
}

func (a *CheckedAllocator) Reallocate(size int, b []byte) []byte {
	nb := a.mem.Reallocate(size, b)
	if nb == nil {
		return nil
	}
	a.sz.Add(int64(size - len(b)))
	if len(b) != 0 {
		a.allocs.Delete(addressOf(b))
	}
	if size != 0 {
		pc, _, _, _ := runtime.Caller(1)
		a.allocs.Store(addressOf(nb), &allocSite{size: size, pc: pc})
	}
	return nb
}

func (a *CheckedAllocator) Free(b []byte) {
	a.sz.Add(-int64(len(b)))
	if len(b) != 0 {
		a.allocs.Delete(addressOf(b))
	}
	a.mem.Free(b)
}

// TestingT is the subset of testing.TB that AssertSize reports
// through.
type TestingT interface {
	Errorf(format string, args ...interface{})
	Helper()
}

// AssertSize fails t unless exactly sz bytes are currently allocated,
// reporting the allocation site of every leaked buffer.
func (a *CheckedAllocator) AssertSize(t TestingT, sz int) {
	t.Helper()
	a.allocs.Range(func(_, v any) bool {
		site := v.(*allocSite)
		if f := runtime.FuncForPC(site.pc); f != nil {
			file, line := f.FileLine(site.pc)
			t.Errorf("LEAK of %d bytes FROM %s line %d", site.size, file, line)
		} else {
			t.Errorf("LEAK of %d bytes FROM unknown site", site.size)
		}
		return true
	})
	if int(a.sz.Load()) != sz {
		t.Errorf("invalid memory size exp=%d, got=%d", sz, a.sz.Load())
	}
}
