package iwl

import "log"

// HandleError panics through the standard logger when err is not nil.
func HandleError(err error) {
	if err != nil {
		log.Panic(err)
	}
}
