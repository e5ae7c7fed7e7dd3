package fileservice

import (
	"bufio"
	"net"
	"testing"
	"time"

	. "github.com/fulldump/biff"
)

func dialAndReadOne(t *testing.T, addr string) string {
	conn, err := net.Dial("tcp", addr)
	AssertEqual(err, nil)
	t.Cleanup(func() { conn.Close() })

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	line, err := bufio.NewReader(conn).ReadString('\n')
	AssertEqual(err, nil)
	return line
}

func TestListener_AdmitsUpToN(t *testing.T) {
	Environment(func(filename string) {
		l, err := NewListener("127.0.0.1:0", filename, 2, 5, 5*time.Millisecond, discardHandlerLogger())
		AssertEqual(err, nil)
		go l.Run()
		defer l.Stop()

		msg1 := dialAndReadOne(t, l.Addr().String())
		msg2 := dialAndReadOne(t, l.Addr().String())

		AssertEqual(msg1, MsgReady)
		AssertEqual(msg2, MsgReady)
	})
}

func TestListener_QueuesBeyondN(t *testing.T) {
	Environment(func(filename string) {
		l, err := NewListener("127.0.0.1:0", filename, 1, 5, 5*time.Millisecond, discardHandlerLogger())
		AssertEqual(err, nil)
		go l.Run()
		defer l.Stop()

		msg1 := dialAndReadOne(t, l.Addr().String())
		AssertEqual(msg1, MsgReady)

		msg2 := dialAndReadOne(t, l.Addr().String())
		AssertEqual(msg2, MsgQueued)
	})
}

func TestListener_RefusesBeyondCapacity(t *testing.T) {
	Environment(func(filename string) {
		l, err := NewListener("127.0.0.1:0", filename, 1, 1, 5*time.Millisecond, discardHandlerLogger())
		AssertEqual(err, nil)
		go l.Run()
		defer l.Stop()

		msg1 := dialAndReadOne(t, l.Addr().String())
		AssertEqual(msg1, MsgReady)

		msg2 := dialAndReadOne(t, l.Addr().String())
		AssertEqual(msg2, MsgQueued)

		msg3 := dialAndReadOne(t, l.Addr().String())
		AssertEqual(msg3, MsgRefused)
	})
}

func TestListener_PromotesQueuedClientOnRelease(t *testing.T) {
	Environment(func(filename string) {
		l, err := NewListener("127.0.0.1:0", filename, 1, 5, 5*time.Millisecond, discardHandlerLogger())
		AssertEqual(err, nil)
		go l.Run()
		defer l.Stop()

		firstConn, err := net.Dial("tcp", l.Addr().String())
		AssertEqual(err, nil)
		defer firstConn.Close()
		firstReader := bufio.NewReader(firstConn)
		firstConn.SetReadDeadline(time.Now().Add(2 * time.Second))
		msg1, _ := firstReader.ReadString('\n')
		AssertEqual(msg1, MsgReady)

		secondConn, err := net.Dial("tcp", l.Addr().String())
		AssertEqual(err, nil)
		defer secondConn.Close()
		secondReader := bufio.NewReader(secondConn)
		secondConn.SetReadDeadline(time.Now().Add(2 * time.Second))
		msg2, _ := secondReader.ReadString('\n')
		AssertEqual(msg2, MsgQueued)

		// Freeing the first handler's slot should promote the queued client.
		firstConn.Close()

		msg3, err := secondReader.ReadString('\n')
		AssertEqual(err, nil)
		AssertEqual(msg3, MsgYourTurn)
	})
}
