package rpc

import (
	"fmt"
	"image"
	"net/rpc"
	"os"
	"strconv"
	"time"
)

type Client struct {
	client *rpc.Client
	tmpdir string
}

func NewClient(port int) (*Client, error) {
	var (
		client *rpc.Client
		err    error
	)
	const maxretries = 5
	for i := range maxretries {
		client, err = rpc.DialHTTP("tcp", ":"+strconv.Itoa(port))
		if err == nil {
			break
		}
		client = nil
		modRPC.WarnZ("dial tcp failed").Error("err", err).Int("retry", i).End()
		time.Sleep(250 * time.Millisecond)
	}

	if client == nil {
		return nil, fmt.Errorf("dial failed max retries: %v", err)
	}

	return &Client{client: client}, nil
}

func (c *Client) Close() error {
	modRPC.DebugZ("closing rpc client").End()
	return c.client.Close()
}

// TempDir returns the directory the emulator saves its exit artifacts into,
// creating it and communicating it to the emulator the first time.
func (c *Client) TempDir() string {
	if c.tmpdir == "" {
		dir, err := os.MkdirTemp("", "chiptor")
		if err != nil {
			modRPC.FatalZ("failed to create temp dir").Error("err", err).End()
		}
		c.tmpdir = dir
		call(c.client, "emu.SetTempDir", dir)
	}
	return c.tmpdir
}

func (c *Client) Reset()              { call(c.client, "emu.Reset", nil) }
func (c *Client) Restart()            { call(c.client, "emu.Restart", nil) }
func (c *Client) SetPause(pause bool) { call(c.client, "emu.SetPause", pause) }
func (c *Client) Stop() *image.RGBA   { return request[*image.RGBA](c.client, "emu.Stop", nil) }

func call(client *rpc.Client, funcname string, args any) {
	request[struct{}](client, funcname, args)
}

func request[T any](client *rpc.Client, funcname string, args any) T {
	if args == nil {
		args = &struct{}{}
	}
	var reply T
	if err := client.Call(funcname, args, &reply); err != nil {
		modRPC.FatalZ("RPC call failed").String("func", funcname).Error("err", err).End()
	}
	return reply
}
