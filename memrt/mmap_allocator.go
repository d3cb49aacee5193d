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

//go:build unix

package memrt

import (
	"sync"

	"golang.org/x/sys/unix"
)

// MmapAllocator sources buffers from anonymous memory mappings, one
// mapping per allocation rounded up to page granularity. The memory
// lives outside the Go heap and is returned to the OS on Free, which
// makes it a convenient stand-in for a foreign memory provider when
// exercising SetAllocator.
type MmapAllocator struct {
	mu       sync.Mutex
	mappings map[uintptr][]byte // payload address -> full mapping
}

func NewMmapAllocator() *MmapAllocator {
	return &MmapAllocator{mappings: make(map[uintptr][]byte)}
}

func (a *MmapAllocator) Allocate(size int) []byte {
	if size == 0 {
		return []byte{}
	}
	n := roundUpToMultipleOf(size, unix.Getpagesize())
	m, err := unix.Mmap(-1, 0, n,
		unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
	if err != nil {
		return nil
	}
	b := m[:size:size]
	a.mu.Lock()
	a.mappings[addressOf(b)] = m
	a.mu.Unlock()
	return b
}

func (a *MmapAllocator) Reallocate(size int, b []byte) []byte {
	if size == len(b) {
		return b
	}
	nb := a.Allocate(size)
	if nb == nil {
		return nil
	}
	copy(nb, b)
	a.Free(b)
	return nb
}

func (a *MmapAllocator) Free(b []byte) {
	if len(b) == 0 {
		return
	}
	a.mu.Lock()
	m, ok := a.mappings[addressOf(b)]
	delete(a.mappings, addressOf(b))
	a.mu.Unlock()
	if ok {
		_ = unix.Munmap(m)
	}
}

// Live returns the number of mappings not yet freed.
func (a *MmapAllocator) Live() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.mappings)
}
