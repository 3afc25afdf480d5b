package prompt

// defaultTemplate is used when a Forge is constructed without a prompt. It
// describes the extraction task, renders an examples section only when an
// examples value is bound, embeds the output schema and ends with the marker
// the user input is appended after.
const defaultTemplate = `You are an expert at extracting entities from user provided text, data or
information and always maintain as much semantic meaning as possible.
Make sure to interpret numbers written as text as numbers when required. Make
sure to identify separate entities.

Analyze the provided input from the user and generate any entities or objects
that match the requested JSON output according to the OUTPUT SCHEMA provided.

Your output MUST be a JSON object that conforms to the JSON Schema below. All
JSON object property names MUST be enclosed in double quotes.

You MUST take the types of the OUTPUT SCHEMA into account and adjust your
provided text to fit the required types.

Here is the OUTPUT SCHEMA:
{{ response_model_json }}
{%- if examples %}
Here are some examples to show what the desired output is:
{{ examples }}
{%- endif %}
Input from user:`

// responseModelSection is appended to templates that bind a schema value but
// never reference the schema variable themselves.
const responseModelSection = `Your output MUST be a JSON object that conforms to the JSON Schema below. All
JSON object property names MUST be enclosed in double quotes.

You MUST take the types of the OUTPUT SCHEMA into account and adjust your
provided text to fit the required types.

Here is the OUTPUT SCHEMA:
{{ response_model_json }}`
