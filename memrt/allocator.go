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
	"unsafe"

	"github.com/klauspost/cpuid/v2"
)

// alignment is the padding granularity of GoAllocator buffers. It
// defaults to 64 and is raised to the CPU cache line when the probe
// reports a larger power of two.
var alignment = 64

func init() {
	if cl := cpuid.CPU.CacheLine; cl > alignment && cl&(cl-1) == 0 {
		alignment = cl
	}
}

// Allocator is the binding used for all default allocations. Allocate
// and Reallocate return nil on failure.
type Allocator interface {
	Allocate(size int) []byte
	Reallocate(size int, b []byte) []byte
	Free(b []byte)
}

// DefaultAllocator is a default implementation of Allocator and can be
// used anywhere an Allocator is required.
//
// DefaultAllocator is safe to use from multiple goroutines.
var DefaultAllocator Allocator = NewGoAllocator()

// GoAllocator sources buffers from the Go heap, padded so the returned
// slice starts on a cache-line boundary. Free is a no-op: memory is
// reclaimed by the collector once the last slice referencing it is
// dropped, which keeps poisoned buffers readable after release.
type GoAllocator struct{}

func NewGoAllocator() *GoAllocator { return &GoAllocator{} }

func (a *GoAllocator) Allocate(size int) []byte {
	buf := make([]byte, size+alignment) // padding for alignment
	addr := int(addressOf(buf))
	next := roundUpToMultipleOf(addr, alignment)
	if addr != next {
		shift := next - addr
		return buf[shift : size+shift : size+shift]
	}
	return buf[:size:size]
}

func (a *GoAllocator) Reallocate(size int, b []byte) []byte {
	if size == len(b) {
		return b
	}

	newBuf := a.Allocate(size)
	copy(newBuf, b)
	return newBuf
}

func (a *GoAllocator) Free(b []byte) {}

func addressOf(b []byte) uintptr {
	return uintptr(unsafe.Pointer(unsafe.SliceData(b)))
}

// roundUpToMultipleOf rounds v up to a multiple of p, which must be a
// power of two.
func roundUpToMultipleOf(v, p int) int {
	return (v + p - 1) &^ (p - 1)
}
