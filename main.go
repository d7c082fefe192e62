package main

import "github.com/edusegment/student-cohorts/cmd"

func main() {
	cmd.Execute()
}
