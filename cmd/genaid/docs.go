package main

// General API documentation for swaggo. Run `make swagger-gen` to generate docs.
//
// @title           genaid API
// @version         1.0
// @description     HTTP API for local OpenVINO GenAI model management and inference.
//
// @contact.name   genaid maintainers
// @contact.url    https://github.com/your-org/genaid
//
// @license.name   MIT
// @license.url    https://opensource.org/licenses/MIT
//
// @BasePath  /
//
// @schemes http
