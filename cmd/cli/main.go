package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/DrStiev/MyRedis/client"
	"github.com/DrStiev/MyRedis/interface/resp"
	"github.com/DrStiev/MyRedis/lib/utils"
	"github.com/DrStiev/MyRedis/resp/reply"
)

func format(r resp.Reply) string {
	switch rep := r.(type) {
	case *reply.NilReply:
		return "(nil)"
	case *reply.ErrReply:
		return fmt.Sprintf("(error %d) %s", rep.Code, rep.Msg)
	case *reply.StrReply:
		return strconv.Quote(string(rep.Arg))
	case *reply.IntReply:
		return fmt.Sprintf("(integer) %d", rep.Code)
	case *reply.DblReply:
		return fmt.Sprintf("(double) %g", rep.Val)
	case *reply.MultiReply:
		if len(rep.Args) == 0 {
			return "(empty array)"
		}
		var sb strings.Builder
		for i, arg := range rep.Args {
			if i > 0 {
				sb.WriteByte('\n')
			}
			sb.WriteString(fmt.Sprintf("%d) %s", i+1, format(arg)))
		}
		return sb.String()
	default:
		return fmt.Sprintf("%v", r)
	}
}

func main() {
	addr := "127.0.0.1:1234"
	if len(os.Args) > 1 {
		addr = os.Args[1]
	}
	c, err := client.MakeClient(addr)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer c.Close()

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Printf("%s> ", addr)
		if !scanner.Scan() {
			break
		}
		args := strings.Fields(scanner.Text())
		if len(args) == 0 {
			continue
		}
		if args[0] == "quit" || args[0] == "exit" {
			break
		}
		r, err := c.Send(utils.ToCmdLine(args...))
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		fmt.Println(format(r))
	}
}
