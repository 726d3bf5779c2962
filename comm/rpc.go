/*
Copyright © 2019 the VCoord authors.
This file is part of VCoord.

VCoord is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

VCoord is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with VCoord.  If not, see <http://www.gnu.org/licenses/>.
*/

package comm

import (
	"context"
	"fmt"
	"math"
	"net"
	"net/http"
	"net/rpc"
	"sync"
	"time"

	"github.com/cenkalti/backoff"
	"github.com/sirupsen/logrus"
)

// RPCPort specifies the default port for coordinator communications.
var RPCPort = "6061"

// CollectiveArgs identifies a process's part in a collective operation.
// It is exported to meet RPC requirements.
type CollectiveArgs struct {
	// Seq is the number of collective operations the calling process has
	// started before this one. It is the same on every process for
	// matching operations.
	Seq int

	Rank, Root int
	Value      float64
}

// collective is a single collective operation in progress.
type collective struct {
	value float64
	n     int // number of processes that have joined
	done  chan struct{}
}

// Coordinator matches up the collective operations of a fixed number of
// processes. It should not be interacted with directly, but it is exported
// to meet RPC requirements.
type Coordinator struct {
	size int

	mu         sync.Mutex
	inProgress map[int]*collective
}

// NewCoordinator returns a coordinator for size processes.
func NewCoordinator(size int) *Coordinator {
	return &Coordinator{
		size:       size,
		inProgress: make(map[int]*collective),
	}
}

// join adds a process to collective operation seq and returns the
// operation. f is called with the operation locked.
func (c *Coordinator) join(seq int, f func(op *collective)) *collective {
	c.mu.Lock()
	defer c.mu.Unlock()
	op, ok := c.inProgress[seq]
	if !ok {
		op = &collective{done: make(chan struct{})}
		c.inProgress[seq] = op
	}
	f(op)
	op.n++
	if op.n == c.size {
		delete(c.inProgress, seq)
	}
	return op
}

func (c *Coordinator) max(args *CollectiveArgs) *collective {
	return c.join(args.Seq, func(op *collective) {
		if op.n == 0 {
			op.value = args.Value
		} else {
			op.value = math.Max(op.value, args.Value)
		}
		if op.n == c.size-1 {
			close(op.done)
		}
	})
}

// ReduceMax contributes args.Value to a maximum. On the root process reply
// is set to the maximum once every process has contributed; on the others
// it is set to args.Value immediately. It meets the requirements for use
// with rpc.Call.
func (c *Coordinator) ReduceMax(args *CollectiveArgs, reply *float64) error {
	op := c.max(args)
	if args.Rank != args.Root {
		*reply = args.Value
		return nil
	}
	<-op.done
	*reply = op.value
	return nil
}

// AllReduceMax contributes args.Value to a maximum and sets reply to the
// maximum once every process has contributed. It meets the requirements for
// use with rpc.Call.
func (c *Coordinator) AllReduceMax(args *CollectiveArgs, reply *float64) error {
	op := c.max(args)
	<-op.done
	*reply = op.value
	return nil
}

// Bcast sets reply to the value given by the root process. It meets the
// requirements for use with rpc.Call.
func (c *Coordinator) Bcast(args *CollectiveArgs, reply *float64) error {
	op := c.join(args.Seq, func(op *collective) {
		if args.Rank == args.Root {
			op.value = args.Value
			close(op.done)
		}
	})
	<-op.done
	*reply = op.value
	return nil
}

// ServeCoordinator serves a coordinator for size processes over l until l
// is closed. It is usually run by the process with rank 0.
func ServeCoordinator(l net.Listener, size int) error {
	s := rpc.NewServer()
	if err := s.Register(NewCoordinator(size)); err != nil {
		return err
	}
	mux := http.NewServeMux()
	mux.Handle(rpc.DefaultRPCPath, s)
	logrus.WithFields(logrus.Fields{
		"address": l.Addr().String(),
		"size":    size,
	}).Info("started coordinator")
	return http.Serve(l, mux)
}

// Endpoint is a process that communicates with the others through a
// coordinator. It must not be used by more than one goroutine at once.
type Endpoint struct {
	rank, size int
	client     *rpc.Client
	seq        int
}

// Dial connects the process with the given rank to the coordinator at
// address, retrying with exponential backoff until the coordinator is
// available or ctx is done.
func Dial(ctx context.Context, address string, rank, size int) (*Endpoint, error) {
	if rank < 0 || rank >= size {
		return nil, fmt.Errorf("comm: rank %d is outside of [0, %d)", rank, size)
	}
	var client *rpc.Client
	err := backoff.RetryNotify(
		func() error {
			var err error
			client, err = rpc.DialHTTP("tcp", address)
			return err
		},
		backoff.WithContext(backoff.NewExponentialBackOff(), ctx),
		func(err error, d time.Duration) {
			logrus.WithField("rank", rank).Warnf("%v: retrying in %v", err, d)
		},
	)
	if err != nil {
		return nil, fmt.Errorf("comm: connecting to coordinator at %s: %v", address, err)
	}
	return &Endpoint{rank: rank, size: size, client: client}, nil
}

// Rank returns the index of this process.
func (e *Endpoint) Rank() int { return e.rank }

// Size returns the number of processes.
func (e *Endpoint) Size() int { return e.size }

// ReduceMax returns the largest v across all processes on the process with
// rank root. Other processes return their own v.
func (e *Endpoint) ReduceMax(ctx context.Context, v float64, root int) (float64, error) {
	return e.call(ctx, "Coordinator.ReduceMax", v, root)
}

// AllReduceMax returns the largest v across all processes.
func (e *Endpoint) AllReduceMax(ctx context.Context, v float64) (float64, error) {
	return e.call(ctx, "Coordinator.AllReduceMax", v, 0)
}

// Bcast returns the v given by the process with rank root.
func (e *Endpoint) Bcast(ctx context.Context, v float64, root int) (float64, error) {
	return e.call(ctx, "Coordinator.Bcast", v, root)
}

func (e *Endpoint) call(ctx context.Context, method string, v float64, root int) (float64, error) {
	args := &CollectiveArgs{Seq: e.seq, Rank: e.rank, Root: root, Value: v}
	e.seq++
	var reply float64
	call := e.client.Go(method, args, &reply, make(chan *rpc.Call, 1))
	select {
	case <-call.Done:
		if call.Error != nil {
			return 0, fmt.Errorf("comm: %s: %v", method, call.Error)
		}
		return reply, nil
	case <-ctx.Done():
		return 0, ctx.Err()
	}
}

// Close closes the connection to the coordinator.
func (e *Endpoint) Close() error { return e.client.Close() }
