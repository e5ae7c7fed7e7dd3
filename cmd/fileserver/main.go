package main

import (
	"fmt"
	"log"
	"net"
	"os"
	"strconv"

	"github.com/fulldump/goconfig"

	"github.com/fulldump/coreops/configuration"
	"github.com/fulldump/coreops/fileservice"
)

func main() {
	if len(os.Args) != 5 {
		fmt.Fprintln(os.Stderr, "usage: fileserver <port> <csv_path> <max_handlers> <max_queued>")
		os.Exit(1)
	}

	port, err := strconv.Atoi(os.Args[1])
	if err != nil || port <= 0 {
		fmt.Fprintln(os.Stderr, "error: port must be a positive integer")
		os.Exit(1)
	}

	csvPath := os.Args[2]

	n, err := strconv.Atoi(os.Args[3])
	if err != nil || n <= 0 {
		fmt.Fprintln(os.Stderr, "error: max_handlers must be a positive integer")
		os.Exit(1)
	}

	m, err := strconv.Atoi(os.Args[4])
	if err != nil || m < 0 {
		fmt.Fprintln(os.Stderr, "error: max_queued must be a non-negative integer")
		os.Exit(1)
	}

	tuning := configuration.DefaultServiceTuning()
	goconfig.Read(tuning)

	logger := log.New(os.Stdout, "SRV: ", log.LstdFlags)

	addr := net.JoinHostPort("", strconv.Itoa(port))
	logger.Printf("listening on %s, backing store %s, handlers=%d queue=%d", addr, csvPath, n, m)

	if err := fileservice.RunWithInterrupt(addr, csvPath, n, m, tuning, logger); err != nil {
		logger.Printf("server exited: %s", err)
		os.Exit(1)
	}
}
