package health

import "os"

func processPID() int {
	return os.Getpid()
}
