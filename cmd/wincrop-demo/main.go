// Command wincrop-demo demonstrates the cropping window capturer: it
// lists capturable windows and streams a selected window's content as
// MJPEG over HTTP.
package main

import "github.com/kirides/wincrop/cmd/wincrop-demo/commands"

func main() {
	commands.Execute()
}
