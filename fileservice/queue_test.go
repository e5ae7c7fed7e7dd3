package fileservice

import (
	"net"
	"testing"

	. "github.com/fulldump/biff"
)

func TestAdmissionQueue_FIFOOrder(t *testing.T) {
	q := NewAdmissionQueue(3)

	a, b := net.Pipe()
	defer a.Close()
	defer b.Close()
	c, d := net.Pipe()
	defer c.Close()
	defer d.Close()

	AssertEqual(q.TryPush(a), true)
	AssertEqual(q.TryPush(c), true)

	first, ok := q.Pop()
	AssertEqual(ok, true)
	AssertEqual(first, a)

	second, ok := q.Pop()
	AssertEqual(ok, true)
	AssertEqual(second, c)
}

func TestAdmissionQueue_RespectsCapacity(t *testing.T) {
	q := NewAdmissionQueue(1)

	a, b := net.Pipe()
	defer a.Close()
	defer b.Close()
	c, d := net.Pipe()
	defer c.Close()
	defer d.Close()

	AssertEqual(q.TryPush(a), true)
	AssertEqual(q.TryPush(c), false)
	AssertEqual(q.Len(), 1)
}

func TestAdmissionQueue_PopEmpty(t *testing.T) {
	q := NewAdmissionQueue(2)

	_, ok := q.Pop()
	AssertEqual(ok, false)
}
