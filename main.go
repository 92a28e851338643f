package main

import "pdfchat/cmd"

func main() {
	cmd.Execute()
}
