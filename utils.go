package vulqueno

import (
	"unsafe"
)

var end = "\x00"
var endChar byte = '\x00'

// DestroyAll destroys items in order.
func DestroyAll(items ...IDestructable) {
	for _, i := range items {
		if i != nil {
			i.Destroy()
		}
	}
}

// ToBytes will take an unsafe.Pointer and length in bytes and convert it
// to a byte slice
func ToBytes(ptr unsafe.Pointer, lenInBytes int) []byte {
	return unsafe.Slice((*byte)(ptr), lenInBytes)
}

func safeString(s string) string {
	if len(s) == 0 {
		return end
	}
	if s[len(s)-1] != endChar {
		return s + end
	}
	return s
}

func safeStrings(list []string) []string {
	ret := make([]string, len(list))
	for i := range list {
		ret[i] = safeString(list[i])
	}
	return ret
}
