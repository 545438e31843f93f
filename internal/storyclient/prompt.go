package storyclient

import "fmt"

const promptTemplate = "Create a captivating %s story for a %s-year-old child named %s. " +
	"The story should be engaging, imaginative, and suitable for their age. " +
	"Keep it fun, adventurous, and full of surprises!"

// BuildPrompt fills the story prompt with the form values as entered.
func BuildPrompt(storyType, age, name string) string {
	return fmt.Sprintf(promptTemplate, storyType, age, name)
}
