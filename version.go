package main

const _version = "v0.1.0"
