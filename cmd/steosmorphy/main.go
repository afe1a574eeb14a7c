// Command steosmorphy - морфологический анализ русских слов из командной строки.
package main

import "os"

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
