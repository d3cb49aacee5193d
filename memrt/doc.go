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

// Package memrt implements a reference-counted memory runtime for
// callers that manage buffer lifetimes explicitly, such as generated
// code and foreign-memory bridges.
//
// Payloads are owned by allocation records ([MemInfo]): atomic
// refcounts, opaque destructors, and a pluggable backing allocator.
// A [Runtime] carries the allocator binding, allocation statistics and
// the shutdown flag; [Default] is the shared process-wide instance.
// Records are created with refcount 1, shared with [MemInfo.Retain] and
// released with [MemInfo.Release]; the release that drops the count to
// zero runs the destructor and returns the backing memory.
//
// This is not a garbage collector. There is no tracing and no cycle
// detection, and the runtime never interprets payload bytes.
package memrt
