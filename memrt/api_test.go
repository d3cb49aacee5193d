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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/memrt/memrt-go/memrt"
)

func TestAPITableFrozen(t *testing.T) {
	rt := memrt.NewRuntime()
	tbl := rt.APITable()
	require.NotNil(t, tbl)
	assert.Same(t, tbl, rt.APITable(), "every call returns the same instance")
}

func TestAPITableLifecycle(t *testing.T) {
	rt := memrt.NewRuntime()
	tbl := rt.APITable()

	mi := tbl.Allocate(32)
	require.NotNil(t, mi)
	assert.Equal(t, uint64(1), mi.Refcount())
	assert.Len(t, tbl.Data(mi), 32)

	tbl.Retain(mi)
	assert.Equal(t, uint64(2), mi.Refcount())
	tbl.Release(mi)
	tbl.Release(mi)

	assert.Equal(t, rt.StatsMiAlloc(), rt.StatsMiFree())
	assert.Equal(t, rt.StatsAlloc(), rt.StatsFree())
}

func TestAPITableAllocateExternal(t *testing.T) {
	p := newProvider()
	rt := memrt.NewRuntime()
	tbl := rt.APITable()

	mi := tbl.AllocateExternal(64, p.external())
	require.NotNil(t, mi)
	tbl.Release(mi)
	assert.Equal(t, 1, p.frees)
}

func TestAPITableManageMemory(t *testing.T) {
	rt := memrt.NewRuntime()
	tbl := rt.APITable()

	raw := []byte("foreign")
	released := false
	mi := tbl.ManageMemory(raw, func([]byte) { released = true })
	assert.Equal(t, raw, tbl.Data(mi))

	tbl.Release(mi)
	assert.True(t, released)
}
