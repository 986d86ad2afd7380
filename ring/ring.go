// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package ring implements the channel ring: a bounded single-producer
// single-consumer queue of 32-bit samples with bulk slice operations.
//
// It is a generalization of a Lamport ring buffer with cached
// producer/consumer indices (the same algorithm as an SPSC lock-free
// queue) from single-element Enqueue/Dequeue to bulk copy-in/copy-out,
// because the acquisition engine moves whole device blocks at a time
// rather than one sample at a time.
//
// Both PushSlice and PopSlice are wait-free and never block or fail:
// they copy as much as fits and report how much was actually moved.
package ring

import "code.hybscloud.com/atomix"

// Ring is a bounded SPSC queue of uint32 samples.
//
// Exactly one goroutine may call PushSlice (the producer) and exactly one
// goroutine may call PopSlice, Len, or Discard (the consumer). Calling
// PushSlice from more than one goroutine, or mixing producer and consumer
// calls from the same goroutine without that discipline, is undefined.
type Ring struct {
	_          pad
	head       atomix.Uint64 // consumer reads from here
	_          pad
	cachedTail uint64 // consumer's cached view of tail
	_          pad
	tail       atomix.Uint64 // producer writes here
	_          pad
	cachedHead uint64 // producer's cached view of head
	_          pad
	buf        []uint32
	mask       uint64
}

// New creates a ring with the given capacity, rounded up to the next
// power of 2. Capacity is fixed for the ring's lifetime.
func New(capacity int) *Ring {
	if capacity < 2 {
		capacity = 2
	}
	n := uint64(roundToPow2(capacity))
	return &Ring{
		buf:  make([]uint32, n),
		mask: n - 1,
	}
}

// Cap returns the ring's fixed capacity.
func (r *Ring) Cap() int {
	return int(r.mask + 1)
}

// Len returns the number of samples currently available to the consumer.
func (r *Ring) Len() int {
	tail := r.tail.LoadAcquire()
	head := r.head.LoadAcquire()
	return int(tail - head)
}

// PushSlice copies up to len(src) samples into the ring, limited by free
// capacity. It returns the number of samples actually stored. Producer
// side only.
func (r *Ring) PushSlice(src []uint32) int {
	if len(src) == 0 {
		return 0
	}

	tail := r.tail.LoadRelaxed()
	free := r.cachedHead + uint64(r.Cap()) - tail
	if free < uint64(len(src)) {
		r.cachedHead = r.head.LoadAcquire()
		free = r.cachedHead + uint64(r.Cap()) - tail
		if free == 0 {
			return 0
		}
	}

	n := uint64(len(src))
	if n > free {
		n = free
	}

	written := uint64(0)
	for written < n {
		idx := (tail + written) & r.mask
		run := r.mask + 1 - idx
		if run > n-written {
			run = n - written
		}
		copy(r.buf[idx:idx+run], src[written:written+run])
		written += run
	}

	r.tail.StoreRelease(tail + n)
	return int(n)
}

// PopSlice copies up to len(dst) samples out of the ring, limited by how
// many are available. It returns the number of samples actually removed.
// Consumer side only.
func (r *Ring) PopSlice(dst []uint32) int {
	if len(dst) == 0 {
		return 0
	}

	head := r.head.LoadRelaxed()
	avail := r.cachedTail - head
	if avail < uint64(len(dst)) {
		r.cachedTail = r.tail.LoadAcquire()
		avail = r.cachedTail - head
		if avail == 0 {
			return 0
		}
	}

	n := uint64(len(dst))
	if n > avail {
		n = avail
	}

	read := uint64(0)
	for read < n {
		idx := (head + read) & r.mask
		run := r.mask + 1 - idx
		if run > n-read {
			run = n - read
		}
		copy(dst[read:read+run], r.buf[idx:idx+run])
		read += run
	}

	r.head.StoreRelease(head + n)
	return int(n)
}

// Discard removes up to n samples without copying them out. Consumer
// side only.
func (r *Ring) Discard(n int) {
	if n <= 0 {
		return
	}

	head := r.head.LoadRelaxed()
	avail := r.cachedTail - head
	if uint64(n) > avail {
		r.cachedTail = r.tail.LoadAcquire()
		avail = r.cachedTail - head
	}

	d := uint64(n)
	if d > avail {
		d = avail
	}
	r.head.StoreRelease(head + d)
}

// roundToPow2 rounds n up to the next power of 2.
func roundToPow2(n int) int {
	if n < 2 {
		return 2
	}
	n--
	n |= n >> 1
	n |= n >> 2
	n |= n >> 4
	n |= n >> 8
	n |= n >> 16
	n |= n >> 32
	return n + 1
}

// pad is cache line padding to prevent false sharing between the
// producer's and consumer's hot fields.
type pad [64]byte
