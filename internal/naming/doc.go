// Package naming turns a resolved date into the folder and file names a media
// file is relocated to, and picks a free name when the target already exists.
//
// Generated names are driven by token templates such as
// "{filename}_{timestamp}{file_extension}". Tokens come from a fixed
// vocabulary; anything else is rejected when the template is parsed.
package naming
