/*
Copyright © 2023 NAME HERE <EMAIL ADDRESS>
*/
package main

import "staking/cmd"

func main() {
	cmd.Execute()
}
