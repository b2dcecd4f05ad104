// Package manifest defines the recipe format for kiln builds.
//
// A recipe is a small YAML document naming a base image, a set of
// environment variables, OS packages, a working directory, and an optional
// dependency manifest. Decoding is strict: unknown fields are rejected.
// Validation covers structure only; whether a base image or package
// actually exists is resolved at build time.
//
// Example recipe:
//
//	base: python:3.12-slim
//	env:
//	  PYTHONDONTWRITEBYTECODE: "1"
//	  PYTHONUNBUFFERED: "1"
//	packages:
//	  - git
//	workdir: /app
//	requirements: requirements.txt
package manifest
