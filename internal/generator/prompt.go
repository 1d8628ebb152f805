package generator

const chunkPromptTemplate = `Given the following API code snippet, provide important details for generating an OpenAPI specification in JSON format. The response should include 'paths' and 'components' as keys with their respective details. For example:

{
  "paths": { "/api/v1/users": { "get": { ... } } },
  "components": { "schemas": { "User": { ... } } }
}

API code snippet:

`

// BuildChunkPrompt embeds chunk verbatim in the instruction template.
func BuildChunkPrompt(chunk string) string {
	return chunkPromptTemplate + chunk + "\n"
}
