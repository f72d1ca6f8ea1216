package schema

const schema = `CREATE TABLE notes (id VARCHAR(64) PRIMARY KEY, ownerId VARCHAR(64), content TEXT, attachmentKey VARCHAR(256), updatedAt BIGINT, createdAt BIGINT)`

const dropSchema = `DROP TABLE notes`
