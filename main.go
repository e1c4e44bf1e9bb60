package main

import "simplefeed/service"

func main() {
	service.Execute()
}
