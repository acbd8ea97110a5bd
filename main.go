package main

import "github.com/Taichi-iskw/rmtrans/cmd"

func main() {
	cmd.Execute()
}
