package main

import "github.com/Apurer/go-cart-store/internal/cli"

func main() {
	cli.Execute()
}
