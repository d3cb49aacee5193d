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
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// swapFatal replaces the process-killing fatal hook with one that
// collects messages, restoring it when the test ends.
func swapFatal(t *testing.T) *[]string {
	t.Helper()
	var msgs []string
	orig := fatal
	fatal = func(format string, args ...any) {
		msgs = append(msgs, fmt.Sprintf(format, args...))
	}
	t.Cleanup(func() { fatal = orig })
	return &msgs
}

func TestNewRuntimeDefaults(t *testing.T) {
	rt := NewRuntime()
	assert.False(t, rt.ShuttingDown())
	assert.Equal(t, Stats{}, rt.Stats())
	assert.Equal(t, DefaultAllocator, rt.Allocator())
}

func TestDefaultRuntime(t *testing.T) {
	require.NotNil(t, Default)
	assert.NotNil(t, Default.Allocator())
}

func TestSetAllocatorQuiescent(t *testing.T) {
	rt := NewRuntime()
	checked := NewCheckedAllocator(NewGoAllocator())
	rt.SetAllocator(checked)
	require.Same(t, checked, rt.Allocator())

	mi := rt.Alloc(32)
	require.NotNil(t, mi)
	mi.Release()

	// quiescent again, swapping back is allowed
	rt.SetAllocator(NewGoAllocator())
	checked.AssertSize(t, 0)
}

func TestSetAllocatorGuard(t *testing.T) {
	msgs := swapFatal(t)
	rt := NewRuntime()
	before := rt.Allocator()

	mi := rt.Alloc(16)
	require.NotNil(t, mi)

	rt.SetAllocator(NewGoAllocator())
	require.Len(t, *msgs, 1)
	assert.Contains(t, (*msgs)[0], "cannot change allocator while blocks are allocated")
	assert.Equal(t, before, rt.Allocator())

	mi.Release()
	rt.SetAllocator(NewGoAllocator())
	assert.Len(t, *msgs, 1)
}

func TestSetAllocatorSameBindingWhileLive(t *testing.T) {
	msgs := swapFatal(t)
	rt := NewRuntime()
	mi := rt.Alloc(16)

	// rebinding the identical allocator is not a swap
	rt.SetAllocator(rt.Allocator())
	assert.Empty(t, *msgs)
	mi.Release()
}

func TestShutdownSuppressesDestructor(t *testing.T) {
	rt := NewRuntime()
	calls := 0
	mi := rt.AllocDtorSafe(8, DestructorFunc(func([]byte, int, any) { calls++ }))
	require.NotNil(t, mi)

	rt.Shutdown()
	assert.True(t, rt.ShuttingDown())

	mi.Release()
	assert.Zero(t, calls, "destructor must not run during shutdown")
	assert.Equal(t, uint64(1), rt.StatsMiFree())
	assert.Equal(t, rt.StatsAlloc(), rt.StatsFree(), "backing memory is still freed")
}

func TestShutdownLeaksVarsizePayload(t *testing.T) {
	rt := NewRuntime()
	mi := rt.NewVarsize(8)
	rt.Shutdown()
	mi.Release()

	// the varsize destructor owns the payload; skipping it during
	// shutdown means the payload is never freed
	assert.Equal(t, uint64(1), rt.StatsAlloc())
	assert.Equal(t, uint64(0), rt.StatsFree())
	assert.Equal(t, uint64(1), rt.StatsMiFree())
}

func TestStatsBalanceAcrossLifecycles(t *testing.T) {
	rt := NewRuntime()

	rt.Alloc(10).Release()
	rt.AllocAligned(10, 64).Release()
	rt.AllocSafe(300).Release()

	v := rt.NewVarsize(8)
	require.NotNil(t, v.VarsizeRealloc(32))
	v.VarsizeFree(v.Data())
	v.Release()

	assert.Equal(t, uint64(4), rt.StatsAlloc())
	assert.Equal(t, uint64(4), rt.StatsFree())
	assert.Equal(t, uint64(4), rt.StatsMiAlloc())
	assert.Equal(t, uint64(4), rt.StatsMiFree())
}

func TestStatsAccessorsMatchSnapshot(t *testing.T) {
	rt := NewRuntime()
	mi := rt.Alloc(1)
	s := rt.Stats()
	assert.Equal(t, s.Alloc, rt.StatsAlloc())
	assert.Equal(t, s.Free, rt.StatsFree())
	assert.Equal(t, s.MiAlloc, rt.StatsMiAlloc())
	assert.Equal(t, s.MiFree, rt.StatsMiFree())
	mi.Release()
}
