package util

import (
	"fmt"
)

const avatarSize = 80

func Avatar(seed string) string {
	return fmt.Sprintf("https://avatars.dicebear.com/api/bottts/%v.svg?size=%v", seed, avatarSize)
}
