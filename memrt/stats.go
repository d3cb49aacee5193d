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

// Stats is a monitoring snapshot of a runtime's counters. The four
// values are read one atomic load at a time, so a snapshot taken while
// other goroutines allocate may be internally inconsistent; it is a
// diagnostic, not a correctness primitive.
type Stats struct {
	// Alloc and Free count backing-allocator operations.
	Alloc uint64 `json:"alloc"`
	Free  uint64 `json:"free"`
	// MiAlloc and MiFree count record constructions and destructions.
	MiAlloc uint64 `json:"mi_alloc"`
	MiFree  uint64 `json:"mi_free"`
}

func (r *Runtime) Stats() Stats {
	return Stats{
		Alloc:   r.statsAlloc.Load(),
		Free:    r.statsFree.Load(),
		MiAlloc: r.statsMiAlloc.Load(),
		MiFree:  r.statsMiFree.Load(),
	}
}

// StatsAlloc returns the number of backing allocations performed.
func (r *Runtime) StatsAlloc() uint64 { return r.statsAlloc.Load() }

// StatsFree returns the number of backing frees performed.
func (r *Runtime) StatsFree() uint64 { return r.statsFree.Load() }

// StatsMiAlloc returns the number of records constructed.
func (r *Runtime) StatsMiAlloc() uint64 { return r.statsMiAlloc.Load() }

// StatsMiFree returns the number of records destroyed.
func (r *Runtime) StatsMiFree() uint64 { return r.statsMiFree.Load() }
