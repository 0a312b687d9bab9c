package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	cli "github.com/spf13/pflag"

	"voxa/internal/ipc"
)

// voxa-ctl types utterances into a running voxa started with the socket
// listener. With arguments it sends them as one utterance; without, it
// sends every line read from stdin.
func main() {
	socket := cli.StringP("socket", "s", ipc.DefaultSocketPath, "voxa control socket")
	cli.Parse()

	if cli.NArg() > 0 {
		if err := say(*socket, strings.Join(cli.Args(), " ")); err != nil {
			fmt.Fprintln(os.Stderr, "voxa not running:", err)
			os.Exit(1)
		}
		return
	}

	sc := bufio.NewScanner(os.Stdin)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		if err := say(*socket, line); err != nil {
			fmt.Fprintln(os.Stderr, "voxa not running:", err)
			os.Exit(1)
		}
	}
}

func say(socket, text string) error {
	return ipc.SendCommand(socket, ipc.ControlMessage{Cmd: ipc.CmdSay, Text: text})
}
