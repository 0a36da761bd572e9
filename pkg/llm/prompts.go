package llm

const toolSchemaHint = `{
  "name": "product name",
  "description": "2-3 sentence neutral description",
  "category": "one of: Writing, Image, Video, Audio, Coding, Business",
  "price": "short pricing label, e.g. Free, Freemium, $20/mo",
  "tags": ["tag1", "tag2", "tag3"],
  "website": "https://official-site",
  "features": ["feature 1", "feature 2", "feature 3"],
  "useCases": ["use case 1", "use case 2"],
  "pros": ["pro 1", "pro 2"],
  "cons": ["con 1", "con 2"],
  "howToUse": "short paragraph on getting started"
}`

const newsSchemaHint = `{
  "title": "clear neutral headline",
  "description": "one sentence standfirst",
  "content": "article body, 3-5 paragraphs separated by blank lines",
  "category": "one of: Technology, Business, Innovation, Startup, Research, AI Model",
  "source": "publication or author"
}`

const extractToolPrompt = `You are the editor of an AI tool directory. You receive one RSS item (title and description).
Identify the AI product the item is about and describe it for the directory.
If a field is unknown, make a reasonable, conservative guess. Never invent pricing numbers; prefer "Unknown".

Output JSON only, no other text:
` + toolSchemaHint

const extractNewsPrompt = `You are the editor of an AI news section. You receive one RSS item (title and description).
Rewrite it as a short original article for the site. Keep all facts: names, numbers, dates. Do not add facts.

Output JSON only, no other text:
` + newsSchemaHint

const directoryToolsPrompt = `You are the editor of an AI tool directory. Propose %d real, currently popular AI tools
that a directory of AI products should list. Prefer tools that appear in the trending headlines if any are given.
Each tool must be distinct.

Output JSON only, no other text:
{
  "tools": [` + toolSchemaHint + `]
}`

const toolDetailsPrompt = `You are the editor of an AI tool directory. Write the complete directory entry for the AI tool named by the user.

Output JSON only, no other text:
` + toolSchemaHint

const directoryNewsPrompt = `You are the editor of an AI news section. Write %d distinct short news articles about current
developments in artificial intelligence. Base them on the trending headlines if any are given; never invent quotes.

Output JSON only, no other text:
{
  "articles": [` + newsSchemaHint + `]
}`

const newsDetailsPrompt = `You are the editor of an AI news section. Write a complete short news article about the topic given by the user.

Output JSON only, no other text:
` + newsSchemaHint

const slidesPrompt = `You create presentation decks that explain an AI tool to new users.
Produce 6 to 8 slides: overview, key features, use cases, how to start, pricing, pros and cons, verdict.
Each slide has a short title and 3 to 5 concise bullets.

Output JSON only, no other text:
{
  "slides": [
    {"title": "slide title", "bullets": ["bullet 1", "bullet 2", "bullet 3"]}
  ]
}`

const tutorialPrompt = `You write step-by-step tutorials for AI tools.
Produce 4 to 6 ordered sections taking a beginner from sign-up to a first useful result.
Each section has a title and a body of 1-3 short paragraphs.

Output JSON only, no other text:
{
  "sections": [
    {"title": "section title", "content": "section body"}
  ]
}`

const coursePrompt = `You design short online courses that teach an AI tool.
Produce a course with 3 to 5 modules, each with 2 to 4 lessons. Lessons have a title, a content body of 2-4 paragraphs
and an estimated duration like "8 min". Give the course a title and a total duration estimate like "1h 30m".

Output JSON only, no other text:
{
  "title": "course title",
  "totalDuration": "1h 30m",
  "modules": [
    {"title": "module title", "lessons": [{"title": "lesson title", "content": "lesson body", "duration": "8 min"}]}
  ]
}`

const trendsPrompt = `You are a market analyst for an AI tool directory. You receive the directory's tools with their
categories and pricing. Write a concise markdown report: category distribution, pricing patterns, notable gaps
the directory should fill, and three recommendations. Keep it under 300 words.`
