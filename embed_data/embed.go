package embed_data

import _ "embed"

//go:embed prompts/system_prompt.tmpl
var SystemPromptTemplate []byte

//go:embed models_details/model_details.json
var ModelDetails []byte
