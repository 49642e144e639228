package evals

import "fmt"

const systemPrompt = `You are a UI grounding model. You are shown a screenshot of a web page and a description of one clickable element on it. Answer with the point you would click, as JSON on a normalized grid where both axes run from 0 to 1000 with the origin at the top-left corner.

Answer with exactly one JSON object and nothing else:
{"x": <0-1000>, "y": <0-1000>}`

func buildLocatePrompt(instruction string) string {
	return fmt.Sprintf("Click on the following element: %s", instruction)
}
