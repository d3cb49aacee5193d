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

// ExternalAllocator lets a record's memory come from a foreign provider
// (a device allocator, a pinned-memory pool) instead of the runtime's
// binding. Ctx is passed unchanged to all three functions.
//
// The provider owns the ExternalAllocator; the runtime only stores a
// reference inside records bound to it and treats it as read-only for
// their lifetime. Malloc and Realloc report failure by returning nil.
type ExternalAllocator struct {
	Malloc  func(size int, ctx any) []byte
	Realloc func(b []byte, size int, ctx any) []byte
	Free    func(b []byte, ctx any)
	Ctx     any
}
